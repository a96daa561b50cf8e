// Package config provides configuration management for auditcsv.
//
// Configuration comes from three places, later ones winning:
//  1. Built-in defaults (NewConfig)
//  2. An optional YAML file (.auditcsv.yaml in the working directory, or
//     config.yaml in the XDG config directory)
//  3. Command line flags that were explicitly set
package config
