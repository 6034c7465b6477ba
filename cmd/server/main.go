package main

import (
	"github.com/nguyentranbao-ct/product-service/cmd"
)

func main() {
	cmd.Execute()
}
