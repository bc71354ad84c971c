package logger

import (
	"log"
	"os"
)

var (
	// InfoLogger records normal operational events.
	InfoLogger *log.Logger
	// ErrorLogger records failures that need attention.
	ErrorLogger *log.Logger
)

// Init wires the shared loggers and the default log package output.
func Init() {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	InfoLogger = log.New(os.Stdout, "INFO: ", flags)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", flags)
	log.SetFlags(flags)
}
