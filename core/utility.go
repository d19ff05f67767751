package core

import (
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
)

const shaderSuffix = ".spv"

// shaderTypeOf tells the type of a compiled shader from its name. The name
// must have exactly two dots, the first part is the name of the shader,
// then its type, then the .spv suffix only compiled shaders carry.
func shaderTypeOf(name string) ShaderType {
	if !strings.HasSuffix(name, shaderSuffix) {
		return UnknownShaderType
	}
	nodes := strings.Split(strings.TrimSuffix(filepath.Base(name), shaderSuffix), ".")
	if len(nodes) != 2 {
		return UnknownShaderType
	}
	switch nodes[1] {
	case "vert":
		return VertexShaderType
	case "frag":
		return FragmentShaderType
	default:
		return UnknownShaderType
	}
}

// DirShaders is a ShaderSource reading compiled shaders from a directory.
type DirShaders string

// Find implements ShaderSource
func (d DirShaders) Find(name string) ([]byte, error) {
	if shaderTypeOf(name) == UnknownShaderType {
		return nil, errors.Errorf("%s: not a compiled shader name", name)
	}
	data, err := os.ReadFile(filepath.Join(string(d), filepath.FromSlash(name)))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrShaderMissing, name)
	}
	return data, err
}

// List returns the names of all compiled shaders in the directory.
func (d DirShaders) List() ([]string, error) {
	var shaders []string
	if err := filepath.Walk(string(d), func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() || shaderTypeOf(f.Name()) == UnknownShaderType {
			return nil
		}
		rel, err := filepath.Rel(string(d), path)
		if err != nil {
			return err
		}
		shaders = append(shaders, filepath.ToSlash(rel))
		return nil
	}); err != nil {
		return nil, err
	}
	return shaders, nil
}

// SliceUint32 reslices bytes into a uint32, that is used
// to sumbit vulkan shaders for processing
func SliceUint32(data []byte) []uint32 {
	if len(data) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}

func safeString(s string) string {
	return s + "\x00"
}

func safeStrings(sgs []string) []string {
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}
