package main

import "flag"

// Args are command line arguments.
type Args struct {
	ConfigFile string
}

func getArgs() Args {
	configFile := flag.String("config", "",
		"Configuration file (optional; environment variables override it).")
	flag.Parse()
	return Args{ConfigFile: *configFile}
}
