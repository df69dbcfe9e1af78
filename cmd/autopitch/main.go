// Package main is the entry point for AutoPitch.
package main

func main() {
	Execute()
}
