/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "faqrag/cmd"

func main() {
	cmd.Execute()
}
