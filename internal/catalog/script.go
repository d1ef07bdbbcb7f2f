package catalog

import (
	"strings"

	"github.com/leapstack-labs/leapnav/pkg/core"
)

const indent = "    "

func objectName(d *core.DialectConfig, schema, name string, so ScriptOptions) string {
	if so.FullNames {
		return d.QualifiedName(schema, name)
	}
	return d.QuoteIdentifier(name)
}

func writeHeader(sb *strings.Builder, kind, name, comment string, so ScriptOptions) {
	if so.IncludeComments && comment != "" {
		for _, line := range strings.Split(comment, "\n") {
			sb.WriteString("-- ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	if so.IncludeDrop {
		sb.WriteString("DROP ")
		sb.WriteString(kind)
		sb.WriteString(" IF EXISTS ")
		sb.WriteString(name)
		sb.WriteString(";\n")
	}
}

func renderTable(d *core.DialectConfig, t *Table, meta *core.TableMetadata, so ScriptOptions) string {
	name := objectName(d, t.schema.Name(), t.Name(), so)

	defs := make([]string, 0, len(meta.Columns)+1)
	for _, c := range meta.Columns {
		var def strings.Builder
		def.WriteString(d.QuoteIdentifier(c.Name))
		def.WriteString(" ")
		def.WriteString(c.Type)
		if !c.Nullable {
			def.WriteString(" NOT NULL")
		}
		if c.Default != "" {
			def.WriteString(" DEFAULT ")
			def.WriteString(c.Default)
		}
		defs = append(defs, def.String())
	}
	if keys := meta.PrimaryKey(); len(keys) > 0 {
		quoted := make([]string, len(keys))
		for i, k := range keys {
			quoted[i] = d.QuoteIdentifier(k)
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(quoted, ", ")+")")
	}

	var sb strings.Builder
	writeHeader(&sb, "TABLE", name, t.Comment(), so)
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(name)
	if so.Compact {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(defs, ", "))
		sb.WriteString(");")
		return sb.String()
	}
	sb.WriteString(" (\n")
	sb.WriteString(indent)
	sb.WriteString(strings.Join(defs, ",\n"+indent))
	sb.WriteString("\n);")
	return sb.String()
}

func renderView(d *core.DialectConfig, v *View, body string, so ScriptOptions) string {
	name := objectName(d, v.schema.Name(), v.Name(), so)

	var sb strings.Builder
	writeHeader(&sb, "VIEW", name, v.Comment(), so)
	sb.WriteString("CREATE OR REPLACE VIEW ")
	sb.WriteString(name)
	if so.Compact {
		sb.WriteString(" AS ")
		sb.WriteString(strings.Join(strings.Fields(body), " "))
	} else {
		sb.WriteString(" AS\n")
		sb.WriteString(body)
	}
	sb.WriteString(";")
	return sb.String()
}
