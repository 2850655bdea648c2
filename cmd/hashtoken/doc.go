// Command hashtoken prints the bcrypt hash of a reload token.
//
// The server compares the bearer token of POST /heroes/reload against the
// hash in RELOAD_TOKEN_HASH, so the token itself never lives in the
// server's environment:
//
//	$ hashtoken
//	Reload token:
//	Confirm token:
//	$2a$12$...
//
//	$ export RELOAD_TOKEN_HASH='$2a$12$...'
//
// On a terminal the token is read twice without echo. When stdin is not a
// terminal a single line is read, which suits scripted setups:
//
//	$ printf '%s\n' "$TOKEN" | hashtoken
package main
