// Package sdk provides a typed Go client for the VisionQA MCP server.
//
// The client wraps mcp-go/client.CallTool with one method per VisionQA tool and
// retries transport failures via fortify.
//
// Usage:
//
//	transport, _ := client.NewStdioTransport("visionqa", "mcp")
//	c := sdk.NewClient(transport)
//	defer c.Close()
//
//	if _, err := c.Initialize(ctx); err != nil {
//		return err
//	}
//	result, _ := c.ValidateMascot(ctx, sdk.MascotRequest{
//		Image:        "https://cdn.example.com/eagle.png",
//		SchoolName:   "Lincoln High",
//		MascotType:   "eagle",
//		SchoolColors: asset.SchoolColors{Primary: "#002855", Secondary: "#FFB81C"},
//	})
//	fmt.Println(result.Score, result.RequiresRegeneration)
package sdk
