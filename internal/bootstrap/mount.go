package bootstrap

import (
	"fmt"
	"html"

	"github.com/PuerkitoBio/goquery"
)

// RootAttr marks the element the UI bundle mounts onto.
const RootAttr = "data-bewly-root"

// ScriptMounter marks the mount root and loads the UI bundle after it.
type ScriptMounter struct {
	AssetBase string
	Script    string
}

// Mount implements Mounter
func (s ScriptMounter) Mount(root *goquery.Selection) error {
	if root.Length() == 0 {
		return fmt.Errorf("mount root not found")
	}
	root.SetAttr(RootAttr, "")
	root.AfterHtml(fmt.Sprintf(
		`<script type="module" src="%s"></script>`,
		html.EscapeString(joinAsset(s.AssetBase, s.Script)),
	))
	return nil
}
