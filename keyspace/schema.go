package keyspace

// SchemaFormat identifies the key layout generation. The store refuses to
// start against a table whose marker item carries a different format.
const SchemaFormat = "stockroom:1.1"

// SchemaVersion is the revision of the entity definitions within the format.
// Version bumps are forward-compatible; format changes are not.
const SchemaVersion = "0.0.1"

// Index describes one queryable key pair on the table.
type Index struct {
	// Name is the index name, or "" for the table's primary key.
	Name string

	// PartitionAttr and SortAttr are the attribute names backing the index.
	PartitionAttr string
	SortAttr      string
}

// Schema describes the physical table: its key attributes, its secondary
// indexes and the format/version pair persisted in the schema marker item.
type Schema struct {
	Format  string
	Version string

	Primary Index
	GSIs    []Index
}

// TableSchema returns the schema for the inventory table. All entity types
// share this one table; their key templates live in the functions above.
func TableSchema() Schema {
	return Schema{
		Format:  SchemaFormat,
		Version: SchemaVersion,
		Primary: Index{PartitionAttr: "pk", SortAttr: "sk"},
		GSIs: []Index{
			{Name: IndexGSI1, PartitionAttr: "gsi1pk", SortAttr: "gsi1sk"},
			{Name: IndexGSI2, PartitionAttr: "gsi2pk", SortAttr: "gsi2sk"},
			{Name: IndexGSI3, PartitionAttr: "gsi3pk", SortAttr: "gsi3sk"},
		},
	}
}
