/*
Package persist binds in-memory values to pluggable storage.

The library is organised in layers:
  - repository: four capability contracts (simple or full, sync or async)
    over byte blobs, plus lazy sequences and metadata predicates
  - decorate: encryption and compression decorators that expose exactly
    the capabilities of the repository they wrap
  - persisted: a reactive value that retrieves on creation, stores on
    mutation with debouncing, and tracks its status
  - backend/*: memory, file, YAML preferences, DynamoDB, Redis and Cassandra
  - config: builds named, decorated repositories from a YAML file

Basic Usage:

	files := file.New("./data", file.WithDistribution(file.ByFirstCharacter))
	key, _ := transform.KeyFromSecret(secret, "settings", 32)
	cipher, _ := transform.NewAESGCM(key)
	repo := decorate.WrapFull(files, decorate.Encrypting(cipher))

	settings := persisted.New(ctx, Settings{}, "settings", persisted.Async(repo, 250*time.Millisecond))
	defer settings.Close()
	settings.Set(Settings{Theme: "dark"})

With a configuration file, repositories are built into a Registry:

	cfg, _ := config.Load("persist.yaml")
	reg, _ := cfg.Build(ctx)
	defer reg.Close()
	settings, _ := persist.Bind(ctx, reg, "settings", "settings", Settings{})
*/
package persist
