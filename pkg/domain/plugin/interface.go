// Package plugin defines the contract for out-of-process vision analyzers.
package plugin

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// AnalyzeRequest is a vision prompt plus one image. Local images travel inline since
// the plugin may not share a filesystem with the host.
type AnalyzeRequest struct {
	Prompt    string
	System    string
	ImageRef  string
	ImageMIME string
	ImageData string // base64, empty for remote images
}

// AnalyzeResponse is the analyzer's raw reply, expected to hold a JSON object.
type AnalyzeResponse struct {
	Text  string
	Model string
}

// Analyzer is the interface plugins must implement.
type Analyzer interface {
	// Name identifies the analyzer and its model.
	Name() (string, error)
	// Analyze answers a vision prompt about an image.
	Analyze(req *AnalyzeRequest) (*AnalyzeResponse, error)
}

// AnalyzerPlugin is the implementation of plugin.Plugin so we can serve/consume this.
type AnalyzerPlugin struct {
	Impl Analyzer
}

func (p *AnalyzerPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &AnalyzerRPCServer{Impl: p.Impl}, nil
}

func (p *AnalyzerPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &AnalyzerRPCClient{Client: c}, nil
}

type AnalyzerRPCClient struct{ Client *rpc.Client }

func (g *AnalyzerRPCClient) Name() (string, error) {
	var resp string
	err := g.Client.Call("Plugin.Name", "", &resp)
	return resp, err
}

func (g *AnalyzerRPCClient) Analyze(req *AnalyzeRequest) (*AnalyzeResponse, error) {
	var resp AnalyzeResponse
	err := g.Client.Call("Plugin.Analyze", req, &resp)
	return &resp, err
}

type AnalyzerRPCServer struct{ Impl Analyzer }

func (s *AnalyzerRPCServer) Name(args string, resp *string) error {
	name, err := s.Impl.Name()
	*resp = name
	return err
}

func (s *AnalyzerRPCServer) Analyze(args *AnalyzeRequest, resp *AnalyzeResponse) error {
	result, err := s.Impl.Analyze(args)
	if result != nil {
		*resp = *result
	}
	return err
}
