// Package main is the entry point for the mongo-probe service.
package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/kart-io/mongo-probe/internal/probe"
)

func main() {
	probe.NewApp().Run()
}
