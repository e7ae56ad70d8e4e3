// Package cli defines tensu's command line.
//
// The root command starts the dashboard and refuses to run without a
// terminal. The subcommands cover what is useful from scripts:
//
//	tensu                 start the dashboard
//	tensu namespaces      list namespaces (checks url and credentials)
//	tensu logs -n 100     print recent log records
//	tensu version         print build information
//
// --config and --state apply to every command.
package cli
