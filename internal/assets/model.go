package assets

import (
	"fmt"
	"os"

	"github.com/qmuntal/gltf"
	"github.com/sheenobu/go-obj/obj"
)

// LoadOBJ parses a Wavefront OBJ file, reporting through the manager.
func LoadOBJ(m *Manager, path string) (*obj.Object, error) {
	m.ItemStart(path)

	file, err := os.Open(path)
	if err != nil {
		m.ItemError(path)
		return nil, fmt.Errorf("failed to open obj file: %v", err)
	}
	defer file.Close()

	o, err := obj.NewReader(file).Read()
	if err != nil {
		m.ItemError(path)
		return nil, fmt.Errorf("failed to parse obj %s: %v", path, err)
	}

	m.ItemEnd(path)
	return o, nil
}

// LoadGLTF opens a glTF 2.0 document, reporting through the manager.
func LoadGLTF(m *Manager, path string) (*gltf.Document, error) {
	m.ItemStart(path)

	doc, err := gltf.Open(path)
	if err != nil {
		m.ItemError(path)
		return nil, fmt.Errorf("failed to open gltf %s: %v", path, err)
	}

	m.ItemEnd(path)
	return doc, nil
}
