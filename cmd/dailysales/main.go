package main

import (
	"salespipe-backend/cmd/dailysales/cmd"
)

func main() {
	cmd.Execute()
}
