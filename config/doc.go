/*
Package config builds named, decorated repositories from a YAML file.

Environment references of the form ${VAR} are expanded before parsing, so
secrets and endpoints can live in the process environment or in a .env file
loaded with LoadEnv.

Example:

	repositories:
	  settings:
	    backend: file
	    path: ./data
	    distribution: first
	    mode: async
	    debounce: 250ms
	    codec: json
	    decorators:
	      - compress: gzip
	      - encrypt: aes-gcm
	        keyEnv: PERSIST_KEY

Decorators are listed in the order they apply to bytes on their way to
storage: the example compresses first and encrypts the compressed bytes.
*/
package config
