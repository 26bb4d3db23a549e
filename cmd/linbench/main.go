package main

import (
	"fmt"
	"time"

	"lin/internal"
)

var source string = `
var a = 1;
jabTak (a < 10000000) {
    a = a + 1;
}
`

func main() {
	start := time.Now()
	internal.RunSourceWithPrinter(source, internal.DefaultConfig(), internal.StdPrinter{})
	fmt.Println("Time elapsed is:", time.Since(start))
}
