/*
Package ddb provides a DynamoDB key-value repository.

Each key is stored as one item in a single-table layout. The key attributes
are built from templates in which the macro {key} is replaced with the
repository key:

	store := ddb.New(client, "app-state",
	    ddb.WithKeyTemplate("PK", "SETTINGS#{key}"),
	    ddb.WithKeyTemplate("SK", "VALUE"),
	)

The stored bytes live in the binary attribute "Data" next to a
"ModifiedOn" timestamp.

Open builds the SDK client from a Config, with static credentials when
given and a custom endpoint for DynamoDB Local.
*/
package ddb
