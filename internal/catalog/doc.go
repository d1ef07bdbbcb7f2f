// Package catalog models the database objects a navigator node can wrap:
// data sources, schemas, tables, views and columns.
//
// Objects that can render their own definition text (DDL) implement
// DefinitionTextProvider. Tables and views do; data sources, schemas and
// columns do not.
package catalog
