package senglish

// Version is the release version of the interpreter and its CLI.
var Version = "0.3.0"
