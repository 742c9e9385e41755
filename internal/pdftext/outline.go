package pdftext

import (
	"fmt"

	"github.com/thywilljoshua/booksum/internal/sections"
	rpdf "rsc.io/pdf"
)

// Outline reads the document's bookmarks.
func Outline(path string) (entries []sections.OutlineEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read outline of %s: malformed pdf: %v", path, r)
		}
	}()
	f, doc, err := openRSC(path)
	if err != nil {
		return nil, fmt.Errorf("read outline of %s: %w", path, err)
	}
	defer f.Close()
	return convertOutline(doc.Outline().Child), nil
}

func convertOutline(in []rpdf.Outline) []sections.OutlineEntry {
	if len(in) == 0 {
		return nil
	}
	out := make([]sections.OutlineEntry, 0, len(in))
	for _, o := range in {
		out = append(out, sections.OutlineEntry{Title: o.Title, Children: convertOutline(o.Child)})
	}
	return out
}
