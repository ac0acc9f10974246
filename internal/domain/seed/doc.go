// Package seed populates a virtual filesystem at startup.
//
// Sources:
//   - Seed documents in YAML, TOML or JSON, optionally gzip or zstd compressed
//   - A directory of the host filesystem, walked in parallel
//   - The standard layout from the paths package
//
// A seed document lists entries; directories nest their children:
//
//	entries:
//	  - name: etc
//	    children:
//	      - name: motd
//	        content: "welcome\n"
//	        mode: "0644"
//	  - name: tmp
//	    type: dir
//
// Example Usage:
//
//	doc, err := seed.LoadFile("layout.yaml.gz")
//	stats, err := seed.Apply(tree, "/", doc)
//
//	stats, err = seed.FromHostDir(ctx, tree, "./fixtures", "/srv", seed.HostOptions{
//	    MaxFileSize: 1 << 20,
//	})
package seed
