package main

import "dataflow-etl/cmd"

func main() {
	cmd.Execute()
}
