package registry

import (
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher watches a marketplace install directory and re-runs Rehydrate
// whenever a manifest file is added, changed, or removed, feeding the
// refreshed set back to the registry through onChange.
type Watcher struct {
	fsw *fsnotify.Watcher
	dir string
}

// Watch starts watching dir for manifest changes. onChange receives the
// freshly rehydrated manifest set on every filesystem event; it is
// responsible for re-registering with the loader and updating the
// registry's active set. Call Close to stop watching.
func Watch(dir string, onChange func([]*Manifest, error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, dir: dir}

	go func() {
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				log.Debug("manifest directory event", "dir", dir, "name", event.Name, "op", event.Op.String())
				manifests, err := LoadManifestDir(dir)
				onChange(manifests, err)
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Warn("manifest directory watch error", "dir", dir, "err", err)
			}
		}
	}()

	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
