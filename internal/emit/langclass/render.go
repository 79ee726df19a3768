package langclass

import (
	"fmt"
	"sort"
	"strings"
)

// render produces the full source text of one class file:
// package declaration, deduplicated sorted imports, a doc comment naming
// the originalName, the declaration itself, and (for records) either
// explicit accessors+builder or annotation-driven fields.
func render(spec ClassSpec, opts Options) string {
	if spec.Kind == KindEnum {
		return renderEnum(spec, opts)
	}
	return renderRecord(spec, opts)
}

func renderRecord(spec ClassSpec, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s;\n\n", opts.Package)

	imports := collectImports(spec, opts)
	for _, imp := range imports {
		fmt.Fprintf(&b, "import %s;\n", imp)
	}
	if len(imports) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "/**\n * %s\n */\n", spec.OriginalLabel)
	fmt.Fprintf(&b, "public class %s {\n", spec.Name)

	for _, f := range spec.Fields {
		writeFieldDecl(&b, f, opts)
	}

	if !opts.UseAnnotations {
		b.WriteString("\n")
		fmt.Fprintf(&b, "    public %s() {\n    }\n", spec.Name)

		for _, f := range spec.Fields {
			writeAccessors(&b, spec.Name, f)
		}

		writeBuilder(&b, spec)
	}

	b.WriteString("}\n")
	return b.String()
}

func writeFieldDecl(b *strings.Builder, f Field, opts Options) {
	b.WriteString("\n")
	comment := "    // " + f.OriginalName
	if f.Length != nil {
		comment += fmt.Sprintf(", length=%d", *f.Length)
	}
	b.WriteString(comment + "\n")

	javaType := fieldType(f)
	if opts.UseAnnotations {
		fmt.Fprintf(b, "    @GeneratedField(originalName = \"%s\")\n", f.OriginalName)
		fmt.Fprintf(b, "    private %s %s;\n", javaType, f.CamelName)
		return
	}
	if f.IsList {
		fmt.Fprintf(b, "    private %s = new java.util.ArrayList<>();\n", fieldDecl(javaType, f.CamelName))
		return
	}
	fmt.Fprintf(b, "    private %s %s;\n", javaType, f.CamelName)
}

func fieldDecl(javaType, name string) string {
	return javaType + " " + name
}

func fieldType(f Field) string {
	if f.IsList {
		return "java.util.List<" + f.JavaType + ">"
	}
	return f.JavaType
}

func writeAccessors(b *strings.Builder, className string, f Field) {
	javaType := fieldType(f)
	getterName := "get" + capitalize(f.CamelName)
	setterName := "set" + capitalize(f.CamelName)

	b.WriteString("\n")
	fmt.Fprintf(b, "    public %s %s() {\n        return %s;\n    }\n", javaType, getterName, f.CamelName)
	b.WriteString("\n")
	fmt.Fprintf(b, "    public void %s(%s %s) {\n        this.%s = %s;\n    }\n", setterName, javaType, f.CamelName, f.CamelName, f.CamelName)
}

func writeBuilder(b *strings.Builder, spec ClassSpec) {
	b.WriteString("\n")
	b.WriteString("    public static final class Builder {\n")
	fmt.Fprintf(b, "        private final %s instance = new %s();\n", spec.Name, spec.Name)
	for _, f := range spec.Fields {
		javaType := fieldType(f)
		b.WriteString("\n")
		fmt.Fprintf(b, "        public Builder %s(%s %s) {\n            instance.%s(%s);\n            return this;\n        }\n",
			f.CamelName, javaType, f.CamelName, "set"+capitalize(f.CamelName), f.CamelName)
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "        public %s build() {\n            return instance;\n        }\n", spec.Name)
	b.WriteString("    }\n")
}

func renderEnum(spec ClassSpec, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s;\n\n", opts.Package)
	fmt.Fprintf(&b, "/**\n * %s\n */\n", spec.OriginalLabel)
	fmt.Fprintf(&b, "public enum %s {\n", spec.Name)

	for i, c := range spec.EnumConstants {
		sep := ","
		if i == len(spec.EnumConstants)-1 {
			sep = ";"
		}
		fmt.Fprintf(&b, "    %s(\"%s\", \"%s\")%s\n", c.ConstName, c.Code, c.Description, sep)
	}

	b.WriteString(`
    private final String code;
    private final String description;

    ` + spec.Name + `(String code, String description) {
        this.code = code;
        this.description = description;
    }

    public String getCode() {
        return code;
    }

    public String getDescription() {
        return description;
    }

    public static ` + spec.Name + ` fromCode(String code) {
        for (` + spec.Name + ` v : values()) {
            if (v.code.equals(code)) {
                return v;
            }
        }
        return null;
    }

    public static boolean isValid(String code) {
        return fromCode(code) != null;
    }
`)
	b.WriteString("}\n")
	return b.String()
}

func collectImports(spec ClassSpec, opts Options) []string {
	set := make(map[string]bool)
	for _, f := range spec.Fields {
		if strings.Contains(f.JavaType, ".") {
			set[f.JavaType] = true
		}
		if f.IsList {
			set["java.util.List"] = true
			set["java.util.ArrayList"] = true
		}
	}
	imports := make([]string, 0, len(set))
	for k := range set {
		imports = append(imports, k)
	}
	sort.Strings(imports)
	return imports
}
