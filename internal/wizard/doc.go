// Package wizard turns the four wizard commands into handler calls. Dispatch
// is a pure function from a log and a command to new events; Session owns one
// log, persists what Dispatch returns and logs every command.
package wizard
