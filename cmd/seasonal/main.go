// Seasonal - colour season analysis for photographs
//
// Seasonal locates a face in a photograph, samples and corrects the skin
// colour, and classifies it into one of the four fashion colour seasons.
package main

import (
	"github.com/tonalab/seasonal/internal/cli"
)

func main() {
	cli.Execute()
}
