package formatter

import (
	"bytes"
	"fmt"
	"html/template"
)

var mindmapTemplate = template.Must(template.New("mindmap").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} - {{.Heading}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); min-height: 100vh; padding: 20px; }
.container { max-width: 1400px; margin: 0 auto; }
.header { text-align: center; color: white; margin-bottom: 20px; }
.header h1 { font-size: 1.8rem; }
.mindmap-container { background: white; border-radius: 16px; box-shadow: 0 20px 60px rgba(0,0,0,0.3); overflow: hidden; }
#markmap { width: 100%; height: calc(100vh - 140px); min-height: 500px; }
#outline { display: none; padding: 24px; white-space: pre-wrap; font-family: ui-monospace, monospace; }
.footer { text-align: center; color: white; margin-top: 20px; opacity: 0.8; font-size: 0.85rem; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h1>{{.Title}}</h1></div>
  <div class="mindmap-container">
    <svg id="markmap"></svg>
    <pre id="outline">{{.Outline}}</pre>
  </div>
  <div class="footer">{{.Tip}}</div>
</div>
<script src="https://cdn.jsdelivr.net/npm/d3@7"></script>
<script src="https://cdn.jsdelivr.net/npm/markmap-view@0.15.4"></script>
<script src="https://cdn.jsdelivr.net/npm/markmap-lib@0.15.4"></script>
<script>
(function () {
  const markdown = {{.Outline}};
  if (!window.markmap || !window.markmap.Transformer) {
    document.getElementById('markmap').style.display = 'none';
    document.getElementById('outline').style.display = 'block';
    return;
  }
  const { Transformer, Markmap } = window.markmap;
  const { root } = new Transformer().transform(markdown);
  const mm = Markmap.create(document.getElementById('markmap'), {
    colorFreezeLevel: 2,
    initialExpandLevel: 3,
    maxWidth: 300,
    paddingX: 20
  }, root);
  window.addEventListener('resize', () => mm.fit());
})();
</script>
</body>
</html>
`))

type mindmapPage struct {
	Lang    string
	Title   string
	Heading string
	Tip     string
	Outline string
}

// RenderMindmap renders the outline as a standalone HTML page.
// The outline is embedded both as a script string for markmap and as
// preformatted text shown when the scripts cannot load.
func RenderMindmap(outline, title, language string) (string, error) {
	l := labelsFor(language)
	if title == "" {
		title = l.mindmap
	}

	var buf bytes.Buffer
	err := mindmapTemplate.Execute(&buf, mindmapPage{
		Lang:    l.htmlLang,
		Title:   title,
		Heading: l.mindmap,
		Tip:     l.mindmapTip,
		Outline: outline,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render mind map: %w", err)
	}
	return buf.String(), nil
}
