package main

import (
	"github.com/backend-labs/orderms/internal/app"
	"github.com/backend-labs/orderms/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
