package hclcfg

import "github.com/hashicorp/hcl/v2"

// documentSchema represents the top-level structure of a metadv.hcl file.
type documentSchema struct {
	Targets []*targetSchema `hcl:"target,block"`
	Sources []*sourceSchema `hcl:"source,block"`
	Remain  hcl.Body        `hcl:",remain"`
}

// targetSchema represents a `target` block.
type targetSchema struct {
	Name        string   `hcl:"name,label"`
	Type        string   `hcl:"type"`
	Description string   `hcl:"description,optional"`
	Entities    []string `hcl:"entities,optional"`
}

// sourceSchema represents a `source` block with its ordered columns.
type sourceSchema struct {
	Name    string          `hcl:"name,label"`
	Columns []*columnSchema `hcl:"column,block"`
}

// columnSchema represents a `column` block. Each nested `target` block is
// one connection instance.
type columnSchema struct {
	Name        string              `hcl:"name,label"`
	Connections []*connectionSchema `hcl:"target,block"`
}

// connectionSchema represents a single `target` block inside a column.
type connectionSchema struct {
	TargetName      string `hcl:"target_name,optional"`
	EntityName      string `hcl:"entity_name,optional"`
	EntityIndex     *int   `hcl:"entity_index,optional"`
	AttributeOf     string `hcl:"attribute_of,optional"`
	TargetAttribute string `hcl:"target_attribute,optional"`
	MultiactiveKey  bool   `hcl:"multiactive_key,optional"`
}
