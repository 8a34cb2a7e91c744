/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/sdarn/dmapio/cmd/dmapio/cmd"

func main() {
	cmd.Execute()
}
