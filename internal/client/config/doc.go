// Package config loads runtime configuration for the drconsole CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by --config / -c.
//  3. Command-line flags the user actually set.
//
// Flags are declared on a pflag.FlagSet by RegisterFlags, normally the
// persistent flags of the cobra root command:
//
//	-a, --server string             address:port of the resource server
//	-i, --check-interval duration   online status probe interval
//	    --reconcile-interval duration  scheduled publication pass interval
//	    --timeout duration          per-request timeout
//	-v, --verbose                   debug logging
//
// # JSON schema
//
// Durations are strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "reconcile_interval": "30s",
//	  "request_timeout": "10s",
//	  "verbose": false
//	}
package config
