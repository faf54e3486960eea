package forms

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchRegistry observa o arquivo de origem do registry e recarrega após
// escritas. Bloqueia até o ctx encerrar.
//
// O diretório é observado, não o arquivo: editores que salvam via
// temporário + rename trocam o inode e o watch do arquivo morreria. Vários
// eventos seguidos resultam em um reload só, após `debounce` sem novos eventos.
func WatchRegistry(ctx context.Context, r *Registry, debounce time.Duration, log *slog.Logger) error {
	if r.Path() == "" {
		return fmt.Errorf("registry has no source file")
	}
	if log == nil {
		log = slog.Default()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(r.Path())
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %q: %w", filepath.Dir(target), err)
	}

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			// rename sobre o arquivo chega como Create
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				if err := r.Reload(); err != nil {
					log.Error("forms reload failed", "path", r.Path(), "err", err)
					return
				}
				log.Info("forms reloaded", "path", r.Path(), "forms", len(r.IDs()))
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("forms watcher error", "err", err)
		}
	}
}
