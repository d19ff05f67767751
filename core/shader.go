package core

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Names of the compiled triangle shaders.
const (
	VertexShaderName   = "triangle.vert.spv"
	FragmentShaderName = "triangle.frag.spv"
)

// Shader is a compiled SPIR-V shader.
type Shader struct {
	Name string
	Type ShaderType
	Code []byte
}

// LoadShaders finds the named shaders in source. Every name has to be
// a compiled vertex or fragment shader and exist in the source.
func LoadShaders(source ShaderSource, names ...string) ([]Shader, error) {
	shaders := make([]Shader, 0, len(names))
	for _, name := range names {
		shaderType := shaderTypeOf(name)
		if shaderType == UnknownShaderType {
			return nil, errors.Errorf("%s: unknown shader type", name)
		}
		code, err := source.Find(name)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		if len(code) == 0 || len(code)%4 != 0 {
			return nil, errors.Errorf("%s: invalid SPIR-V size %d", name, len(code))
		}
		shaders = append(shaders, Shader{
			Name: name,
			Type: shaderType,
			Code: code,
		})
	}
	return shaders, nil
}

func (s Shader) stage() (vk.ShaderStageFlagBits, error) {
	switch s.Type {
	case VertexShaderType:
		return vk.ShaderStageVertexBit, nil
	case FragmentShaderType:
		return vk.ShaderStageFragmentBit, nil
	default:
		return 0, errors.Errorf("%s: unsupported shader type %d", s.Name, s.Type)
	}
}

func createShaderModule(dev vk.Device, s Shader) (vk.ShaderModule, error) {
	smci := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(s.Code)),
		PCode:    SliceUint32(s.Code),
	}

	var module vk.ShaderModule
	if err := vkError(vk.CreateShaderModule(dev, &smci, nil, &module), "vk.CreateShaderModule()"); err != nil {
		return vk.NullShaderModule, errors.Wrap(err, s.Name)
	}
	return module, nil
}
