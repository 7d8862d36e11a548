package circuitview

import (
	"io/fs"

	"github.com/goliatone/go-circuitview/pkg/loader"
	"github.com/goliatone/go-circuitview/pkg/renderers/circuitjs"
)

// OfflineStylesheetName is the stylesheet only the offline tier provides.
const OfflineStylesheetName = "circuitview-offline.css"

// RuntimeAssetsFS exposes the browser runtime (script and stylesheets) as the
// offline renderer resolves it: override files first, bundled files
// otherwise. Go applications can serve it without a front-end build step.
//
// Typical mount:
//
//	mux.Handle("/circuitview/",
//	  http.StripPrefix("/circuitview/",
//	    http.FileServerFS(circuitview.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return loader.AsFS(circuitjs.NewLoader(OverrideFS()), "js")
}

// RuntimeAssetNames lists the files RuntimeAssetsFS serves.
func RuntimeAssetNames() []string {
	return []string{circuitjs.ScriptName, circuitjs.StylesheetName, OfflineStylesheetName}
}
