/*
Package file provides a path-mapped filesystem repository.

Keys map deterministically to escaped file names under a root directory. A
Distribution rule may spread files into subdirectories:

	file.New(root)                                         // flat
	file.New(root, file.WithDistribution(file.ByFirstCharacter))
	file.New(root, file.WithDistribution(file.ByLastCharacter))
	file.New(root, file.WithDistribution(func(name string) string {
	    return name[:2]
	}))

Directories are created lazily on first store and writes go through a
temporary file followed by a rename. Delete moves items into a .trash
directory under the root, falling back to permanent removal when the move
fails or trash is disabled.

The Store implements repository.FullSync and repository.FullAsync.
*/
package file
