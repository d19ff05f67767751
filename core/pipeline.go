package core

import (
	vk "github.com/vulkan-go/vulkan"
)

// Pipeline owns the render pass, layout and graphics pipeline the
// triangle is drawn with. Viewport and scissor are dynamic state.
type Pipeline struct {
	device *Device

	renderPass vk.RenderPass
	layout     vk.PipelineLayout
	handle     vk.Pipeline
}

// NewPipeline builds a pipeline rendering into images of format. The shader
// modules only live until the pipeline is created.
func NewPipeline(dev *Device, format vk.Format, shaders []Shader) (*Pipeline, error) {
	p := &Pipeline{device: dev}
	if err := p.createRenderPass(format); err != nil {
		return nil, err
	}
	if err := p.createLayout(); err != nil {
		p.Destroy()
		return nil, err
	}
	if err := p.createPipeline(shaders); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) createRenderPass(format vk.Format) error {
	attachments := []vk.AttachmentDescription{{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}}

	colorAttachmentRef := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(colorAttachmentRef)),
		PColorAttachments:    colorAttachmentRef,
	}

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}

	var renderPass vk.RenderPass
	if err := vkError(vk.CreateRenderPass(p.device.Handle(), &rpci, nil, &renderPass), "vk.CreateRenderPass()"); err != nil {
		return err
	}
	p.renderPass = renderPass
	return nil
}

func (p *Pipeline) createLayout() error {
	plci := vk.PipelineLayoutCreateInfo{
		SType: vk.StructureTypePipelineLayoutCreateInfo,
	}

	var layout vk.PipelineLayout
	if err := vkError(vk.CreatePipelineLayout(p.device.Handle(), &plci, nil, &layout), "vk.CreatePipelineLayout()"); err != nil {
		return err
	}
	p.layout = layout
	return nil
}

func (p *Pipeline) createPipeline(shaders []Shader) error {
	stages := make([]vk.PipelineShaderStageCreateInfo, 0, len(shaders))
	defer func() {
		for _, stage := range stages {
			vk.DestroyShaderModule(p.device.Handle(), stage.Module, nil)
		}
	}()

	for _, shader := range shaders {
		stage, err := shader.stage()
		if err != nil {
			return err
		}
		module, err := createShaderModule(p.device.Handle(), shader)
		if err != nil {
			return err
		}
		stages = append(stages, vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  stage,
			Module: module,
			PName:  "main\x00",
		})
	}

	gpci := []vk.GraphicsPipelineCreateInfo{{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType: vk.StructureTypePipelineVertexInputStateCreateInfo,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology:               vk.PrimitiveTopologyTriangleList,
			PrimitiveRestartEnable: vk.False,
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
			DepthClampEnable:        vk.False,
			RasterizerDiscardEnable: vk.False,
			PolygonMode:             vk.PolygonModeFill,
			CullMode:                vk.CullModeFlags(vk.CullModeBackBit),
			FrontFace:               vk.FrontFaceClockwise,
			DepthBiasEnable:         vk.False,
			LineWidth:               1.0,
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
			SampleShadingEnable:  vk.False,
			MinSampleShading:     1.0,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			LogicOpEnable:   vk.False,
			LogicOp:         vk.LogicOpCopy,
			AttachmentCount: 1,
			PAttachments: []vk.PipelineColorBlendAttachmentState{{
				ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit |
					vk.ColorComponentGBit |
					vk.ColorComponentBBit |
					vk.ColorComponentABit),
				BlendEnable: vk.False,
			}},
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: 2,
			PDynamicStates: []vk.DynamicState{
				vk.DynamicStateViewport,
				vk.DynamicStateScissor,
			},
		},
		Layout:     p.layout,
		RenderPass: p.renderPass,
		Subpass:    0,
	}}

	pipelines := make([]vk.Pipeline, len(gpci))
	if err := vkError(vk.CreateGraphicsPipelines(p.device.Handle(), vk.PipelineCache(vk.NullHandle), uint32(len(gpci)), gpci, nil, pipelines), "vk.CreateGraphicsPipelines()"); err != nil {
		return err
	}
	p.handle = pipelines[0]
	return nil
}

// RenderPass returns the render pass
func (p *Pipeline) RenderPass() vk.RenderPass {
	return p.renderPass
}

// Layout returns the pipeline layout
func (p *Pipeline) Layout() vk.PipelineLayout {
	return p.layout
}

// Handle returns the graphics pipeline
func (p *Pipeline) Handle() vk.Pipeline {
	return p.handle
}

// Destroy destroys the pipeline, its layout and render pass
func (p *Pipeline) Destroy() {
	vk.DestroyPipeline(p.device.Handle(), p.handle, nil)
	vk.DestroyPipelineLayout(p.device.Handle(), p.layout, nil)
	vk.DestroyRenderPass(p.device.Handle(), p.renderPass, nil)
}
