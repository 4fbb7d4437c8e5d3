/*
Package config resolves the input, output and silence settings of a run.

	+-----------+    +-----------+    +-----------+
	|   file    | -> |    env    | -> |   flags   |
	| (defaults)|    | PV_SILENT |    | (override)|
	+-----------+    +-----------+    +-----------+
	                       |
	                 +-----+-----+
	                 |  Config   |
	                 +-----------+

🎯 Purpose:
- Produces the immutable Config triple handed to the copy
- Loads an optional config file (YAML, JSON or HCL)
- Applies PV_SILENT

🔄 Precedence:
1. Config file values are defaults
2. Flags replace file paths when set
3. Silence is on if the flag, PV_SILENT or the file enables it; nothing turns it back off

🔍 Example:

	# pv.hcl
	output = "${env.HOME}/capture.bin"
	silent = true

	cfg, err := config.Resolve(ctx, config.Flags{ConfigFile: "pv.hcl"}, config.EnvFromOS())
	if err != nil {
		return err
	}
*/
package config
