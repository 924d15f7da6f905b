package cli

import (
	"context"
	"fmt"
)

// Export writes the CSV export to the configured directory ("file") or
// uploads it to object storage ("upload").
func (a *App) Export(ctx context.Context, target string) error {
	switch target {
	case "file":
		path, err := a.exporter.ToFile(ctx, a.config.ExportDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Exported to %s\n", path)
	case "upload":
		name, err := a.exporter.Upload(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Uploaded %s\n", name)
	default:
		fmt.Fprintln(a.out, "Usage: export [file|upload]")
	}
	return nil
}
