// Package hclcfg implements the config.Loader interface for HCL metadv
// declarations (a metadv.hcl file using target/source/column blocks). It
// produces the same agnostic config.Document as the YAML loader.
package hclcfg
