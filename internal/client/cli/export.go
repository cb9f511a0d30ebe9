package cli

import (
	"context"
	"fmt"
	"path"

	"github.com/dmitrijs2005/stockkeeper/internal/filex"
	"github.com/dmitrijs2005/stockkeeper/internal/netx"
)

// Export downloads the inventory CSV into the export directory.
func (a *App) Export(ctx context.Context) error {
	data, err := a.api.ExportCSV(ctx)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("inventory-%s.csv", a.now().Format("20060102-150405"))
	p, err := filex.SaveToSubDir(a.config.ExportDir, name, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s\n", p)
	return nil
}

// Archive has the server store the CSV in object storage, then fetches it
// back through the presigned URL into the export directory.
func (a *App) Archive(ctx context.Context) error {
	arch, err := a.api.Archive(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Archived as %s\n", arch.Key)

	data, err := netx.DownloadPresignedURL(ctx, a.api.HTTPClient(), arch.URL)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	p, err := filex.SaveToSubDir(a.config.ExportDir, path.Base(arch.Key), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s\n", p)
	return nil
}
