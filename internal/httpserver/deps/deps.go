package deps

import (
	"time"

	"github.com/MrSnakeDoc/resnav/internal/importer"
	"github.com/MrSnakeDoc/resnav/internal/logger"
	"github.com/MrSnakeDoc/resnav/internal/store"
	"github.com/MrSnakeDoc/resnav/internal/webdav"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	Resources     *store.ResourceStore
	Groups        *store.GroupStore
	Notes         *store.NoteStore
	Importer      *importer.Service
	Sync      *webdav.Service
	PageSize  int // resources per page
}
