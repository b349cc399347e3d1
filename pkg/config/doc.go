/*
Package config loads the patch rule set for bundlepatch.

	            +-------------+
	            |   Config    |
	            |   (Rules)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Describes which files to patch and how
- Keeps markers and templates out of the patch code
- Resolves template files and relative paths

🔄 Flow:
1. Reads the configuration file
2. Parses format-specific syntax
3. Resolves paths against the config file's directory
4. Validates rules and converts them to patch rules

🔍 Example:

	root = "./extracted"

	bundle "app" {
	  patterns = ["app-*.js"]
	}

	insert "beta" {
	  bundle = "app"
	  anchor = "get isBeta(){"
	  insert = "return true;"
	}

	binary "checksum" {
	  dir      = "."
	  target   = "tool.bin"
	  original = "43 48 4b 3d 31 31 30 31"
	  patched  = "43 48 4b 3d 30 31 30 31"
	}
*/
package config
