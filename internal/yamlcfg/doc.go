// Package yamlcfg implements the config.Loader interface for YAML metadv
// declarations (the metadv.yml file of a dbt project).
package yamlcfg
