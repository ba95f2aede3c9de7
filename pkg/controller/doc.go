/*
Package controller sequences the turns of a listenbot session.

A Controller is an explicit state machine:

	GREETING --Start--> ACTIVE --Handle (STOP action)--> STOPPED
	                      |  ^
	                      +--+ Handle (any other action, or an UNCLEAR repeat)

Interrupt moves any state to STOPPED. Any classification, tracking or engine error
is fatal to the session and also moves it to STOPPED.

Each turn classifies the user reply, records it, notifies the response engine of
topic switches, asks the engine for the next robot command, renders it and records
it again. An UNCLEAR reply skips the engine and repeats the previous robot text.
*/
package controller
