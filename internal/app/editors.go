package app

import (
	"github.com/specialistvlad/nodecanvas/editors/choice"
	"github.com/specialistvlad/nodecanvas/editors/color"
	"github.com/specialistvlad/nodecanvas/editors/image"
	"github.com/specialistvlad/nodecanvas/editors/number"
	"github.com/specialistvlad/nodecanvas/editors/text"
	"github.com/specialistvlad/nodecanvas/editors/toggle"
	"github.com/specialistvlad/nodecanvas/internal/editor"
)

// coreEditors is the definitive list of field editors that are compiled
// into the nodecanvas binary. Together they cover every field kind; the
// dispatcher validation in NewApp enforces that.
var coreEditors = []editor.Module{
	&number.Module{},
	&toggle.Module{},
	&text.Module{},
	&choice.Module{},
	&color.Module{},
	&image.Module{},
}
