package main

import (
	"fmt"
	"os"

	"github.com/aligator/gofat16"
)

func main() {
	argsWithoutProg := os.Args[1:]
	if len(argsWithoutProg) <= 0 {
		fmt.Println("Please provide a filename.")
		os.Exit(1)
	}

	file, err := os.Open(argsWithoutProg[0])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer file.Close()

	fat, err := gofat16.New(file)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Printf("volume %q, type %v\n", fat.Label(), fat.FSType())
}
