package display

import "fmt"

// PrintBanner prints the startup banner.
func PrintBanner() {
	fmt.Println("sourcepack — seismic source-model compactor")
}
