package langclass

import "ssw-msgspec-gen/internal/ir"

// File is one emitted class file.
type File struct {
	ClassName string
	Content   string
}

// Emit returns one File per class spec.Collect discovers, in discovery
// order: the Request class, then the nested/array/enum classes first
// reached from its fields (depth first, each class before the classes
// nested in it), then the Response class and the classes first reached
// from it.
func Emit(model *ir.MessageModel, opts Options) ([]File, error) {
	specs, err := Collect(model, opts)
	if err != nil {
		return nil, err
	}
	files := make([]File, 0, len(specs))
	for _, spec := range specs {
		files = append(files, File{ClassName: spec.Name, Content: render(spec, opts)})
	}
	return files, nil
}
