// Command compoundcli prints the physical devices Vulkan offers as JSON.
// It runs without a window, so devices are scored without the surface
// checks compound makes: present support, formats and present modes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/compound/core"
	"github.com/devblok/compound/device"
)

var (
	envFile = flag.String("env", "", "Load configuration from this .env file")
	debug   = flag.Bool("vkdbg", false, "Load Vulkan validation layers")
	indent  = flag.Bool("indent", false, "Indent the output")
)

func main() {
	flag.Parse()
	// Logs would mix with the report on stdout
	log.SetOutput(os.Stderr)

	if err := run(); err != nil {
		log.WithError(err).Fatal("compoundcli failed")
	}
}

func run() error {
	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := core.LoadConfiguration(files...)
	if err != nil {
		return err
	}
	cfg.Instance.DebugMode = cfg.Instance.DebugMode || *debug

	instance, err := core.NewInstance(cfg.Instance, cfg.Renderer.MinAPIVersion, nil)
	if err != nil {
		return err
	}
	defer instance.Destroy()

	prober := device.VulkanProber{
		Instance: instance.Handle(),
		Surface:  vk.NullSurface,
	}
	candidates, err := prober.Probe()
	if err != nil {
		return err
	}

	req := cfg.Renderer.Requirements()
	infos := make([]device.Info, 0, len(candidates))
	for _, c := range candidates {
		infos = append(infos, device.DescribeHeadless(c, req))
	}

	var out []byte
	if *indent {
		out, err = json.MarshalIndent(infos, "", "  ")
	} else {
		out, err = json.Marshal(infos)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", out)
	return nil
}
