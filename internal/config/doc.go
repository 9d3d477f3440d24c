// Package config defines the configuration of the tscontainer command.
//
// Values are layered by confloader: defaults from Default, then a YAML file,
// then TSCONTAINER_ environment variables, then command-line flags.
//
// Example file:
//
//	log:
//	  level: info
//	  format: json
//	container:
//	  degree: 32
//	  locker: standard
//	stress:
//	  workers: 8
//	  keys: 10000
//	soak:
//	  duration: 1m
//	  rate: 5000
//	metrics:
//	  addr: 127.0.0.1:9108
package config
