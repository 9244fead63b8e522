package main

import (
	"lambdarest/pkg/lambda"
	"lambdarest/pkg/server"
)

var container *server.Container

func init() {
	var err error
	container, err = server.GetContainer()
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

func main() {
	lambda.Start(container.Routes.Auth)
}
