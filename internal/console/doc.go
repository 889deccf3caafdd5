// Package console is a line-oriented chat transport over stdin/stdout.
//
// Every line is delivered to the front as one chat message. Lines starting
// with a slash are commands:
//
//	/start            log in and add a landmark
//	/continue         add another landmark
//	/cancel           drop the current operation
//	/list [page|all]  list landmarks
//	/show <name>      print one landmark
//	/edit <id>        change one field of a landmark
//	/editall <id>     walk every field of a landmark, "-" keeps a value
//	/delete <id>      delete a landmark
//	/logout           end the session
//	/photo <ref>...   send a photo; each ref is a file path or http(s) URL
//	                  and counts as one size variant
//	/help             list commands
//	/exit             leave the console
//
// When the last reply asks for a secret and stdin is a terminal, the next
// line is read without echo.
package console
