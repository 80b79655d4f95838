package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/coinbase/adfmap/aws"
	"github.com/coinbase/adfmap/client"
	"github.com/coinbase/adfmap/config"
	"github.com/coinbase/adfmap/generator"
)

func main() {
	var arg, command string

	cfg, err := config.Load(os.Getenv("ADFMAP_CONFIG"))
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	config.SetupLogger(cfg, os.Stderr)

	switch len(os.Args) {
	case 1:
		lambda.Start(generator.Generate(&aws.ClientsStr{}, cfg))
		return
	case 2:
		command = os.Args[1]
	case 3:
		command = os.Args[1]
		arg = os.Args[2]
	default:
		printUsage() // Print how to use and exit
	}

	switch command {
	case "generate":
		err = client.Generate(cfg)
	case "validate":
		// arg is an optional map file
		err = client.Validate(cfg, arg)
	case "targets":
		// arg is a pipeline name
		err = client.Targets(cfg, arg)
	default:
		printUsage()
	}

	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: adfmap <generate|validate [map_file]|targets <pipeline>> (No args starts Lambda)")
	os.Exit(0)
}
