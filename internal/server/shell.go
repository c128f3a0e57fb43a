package server

import (
	"fmt"
	"html"
	"strings"

	"github.com/protofab/protofab/internal/types"
)

// shellCSS styles the preview chrome and the rendered component widgets.
// Class names mirror the pf- prefix the renderer emits.
const shellCSS = `
:root { --pf-bg: #f5f5f7; --pf-fg: #1c1c1e; --pf-card: #ffffff; --pf-accent: #4f46e5; --pf-muted: #8e8e93; }
body.pf-dark { --pf-bg: #1c1c1e; --pf-fg: #f5f5f7; --pf-card: #2c2c2e; --pf-accent: #818cf8; --pf-muted: #98989d; }
* { box-sizing: border-box; }
body { margin: 0; font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: var(--pf-bg); color: var(--pf-fg); }
.pf-topbar { display: flex; align-items: center; gap: 12px; padding: 10px 16px; background: var(--pf-card); border-bottom: 1px solid rgba(127,127,127,.25); position: sticky; top: 0; }
.pf-topbar a { color: var(--pf-accent); text-decoration: none; font-size: 14px; }
.pf-topbar h1 { font-size: 15px; margin: 0; font-weight: 600; flex: 1; }
.pf-status { font-size: 12px; color: var(--pf-muted); }
.pf-status.pf-live { color: #22a06b; }
.pf-canvas { max-width: 420px; margin: 24px auto; padding: 0 16px; }
.pf-screenbar { max-width: 420px; margin: 0 auto; padding: 8px 16px; font-size: 12px; color: var(--pf-muted); display: flex; gap: 8px; align-items: center; }
.pf-screenbar button { border: none; background: none; color: var(--pf-accent); cursor: pointer; font-size: 12px; padding: 0; }
.pf-component { background: var(--pf-card); border-radius: 12px; padding: 16px; box-shadow: 0 1px 4px rgba(0,0,0,.08); position: relative; overflow: hidden; }
.pf-btn { border: none; border-radius: 8px; cursor: pointer; font-size: 14px; }
.pf-btn-primary { background: var(--pf-accent); color: #fff; }
.pf-btn-secondary { background: rgba(127,127,127,.15); color: var(--pf-fg); }
.pf-btn-destructive { background: #dc2626; color: #fff; }
.pf-btn-s { padding: 6px 10px; font-size: 12px; }
.pf-btn-m { padding: 10px 16px; }
.pf-btn-l { padding: 14px 22px; font-size: 16px; }
.pf-image-placeholder { border-radius: 8px; }
.pf-icon { display: inline-flex; vertical-align: middle; }
.pf-icon-fallback { display: inline-flex; width: 24px; height: 24px; align-items: center; justify-content: center; color: var(--pf-muted); }
.pf-input { width: 100%; border: 1px solid rgba(127,127,127,.35); border-radius: 8px; padding: 10px 12px; font-size: 14px; background: var(--pf-card); color: var(--pf-fg); }
.pf-input-label { display: block; font-size: 12px; color: var(--pf-muted); margin-bottom: 4px; }
.pf-cell { display: flex; align-items: center; gap: 12px; padding: 10px 0; cursor: default; }
.pf-cell-icon { width: 24px; height: 24px; }
.pf-cell-icon-empty { background: rgba(127,127,127,.2); border-radius: 6px; display: inline-block; }
.pf-cell-body { flex: 1; min-width: 0; display: flex; flex-direction: column; }
.pf-cell-title { font-size: 14px; }
.pf-cell-subtitle { font-size: 12px; color: var(--pf-muted); }
.pf-cell-chevron { display: inline-flex; color: var(--pf-muted); }
.pf-cell-right-icon { width: 20px; height: 20px; }
.pf-toggle { width: 40px; height: 24px; border: none; border-radius: 12px; background: rgba(127,127,127,.3); position: relative; transition: background .15s; cursor: pointer; }
.pf-toggle.pf-on { background: var(--pf-accent); }
.pf-toggle-knob { position: absolute; top: 2px; left: 2px; width: 20px; height: 20px; border-radius: 10px; background: #fff; transition: left .15s; }
.pf-toggle.pf-on .pf-toggle-knob { left: 18px; }
.pf-checkbox { width: 20px; height: 20px; border-radius: 5px; border: 1.5px solid var(--pf-muted); background: none; display: inline-flex; align-items: center; justify-content: center; font-size: 13px; color: #fff; cursor: pointer; }
.pf-checkbox.pf-on { background: var(--pf-accent); border-color: var(--pf-accent); }
.pf-radio { width: 18px; height: 18px; accent-color: var(--pf-accent); }
.pf-cell-info { font-size: 13px; color: var(--pf-muted); }
.pf-sheet-overlay { position: fixed; inset: 0; z-index: 40; }
.pf-sheet-backdrop { position: absolute; inset: 0; background: rgba(0,0,0,.4); }
.pf-sheet { position: absolute; left: 0; right: 0; bottom: 0; background: var(--pf-card); border-radius: 16px 16px 0 0; padding: 8px 16px 24px; max-height: 75%; overflow-y: auto; }
.pf-sheet-handle { width: 36px; height: 4px; border-radius: 2px; background: rgba(127,127,127,.4); margin: 4px auto 12px; }
.pf-sheet-header { font-size: 16px; font-weight: 600; margin-bottom: 12px; }
.pf-sheet-content { font-size: 14px; }
.pf-dropdown-backdrop { position: fixed; inset: 0; z-index: 49; }
.pf-dropdown { position: fixed; z-index: 50; background: var(--pf-card); border-radius: 10px; box-shadow: 0 4px 16px rgba(0,0,0,.2); padding: 4px; min-width: 160px; }
.pf-dropdown-item { display: flex; align-items: center; gap: 8px; width: 100%; border: none; background: none; color: var(--pf-fg); font-size: 14px; padding: 8px 10px; border-radius: 6px; cursor: pointer; text-align: left; }
.pf-dropdown-item:hover { background: rgba(127,127,127,.12); }
.pf-dropdown-icon { display: inline-flex; }
.pf-index { max-width: 640px; margin: 32px auto; padding: 0 16px; }
.pf-index h1 { font-size: 20px; }
.pf-index-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); gap: 12px; }
.pf-index-card { display: block; background: var(--pf-card); border-radius: 10px; padding: 14px; text-decoration: none; color: var(--pf-fg); box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.pf-index-card .pf-name { font-weight: 600; font-size: 14px; }
.pf-index-card .pf-meta { font-size: 12px; color: var(--pf-muted); margin-top: 4px; }
`

// shellJS is the browser side of the session protocol. It forwards gestures
// encoded as data attributes by the renderer and applies render frames,
// navigation, and haptics pushed back by the server.
const shellJS = `
(function () {
  var name = document.body.dataset.definition;
  var canvas = document.getElementById("pf-canvas");
  var status = document.getElementById("pf-status");
  var screenbar = document.getElementById("pf-screenbar");
  var screens = [];
  var ws = null;

  function setStatus(live) {
    status.textContent = live ? "live" : "disconnected";
    status.classList.toggle("pf-live", live);
  }

  function send(msg) {
    if (ws && ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify(msg));
    }
  }

  function renderScreenbar() {
    if (screens.length === 0) {
      screenbar.textContent = "";
      return;
    }
    screenbar.innerHTML = "screen: " + screens.map(escapeHTML).join(" › ") +
      ' <button type="button" id="pf-pop">back</button>';
    document.getElementById("pf-pop").addEventListener("click", function () {
      screens.pop();
      renderScreenbar();
    });
  }

  // The server anchors the dropdown at the raw tap point; keep the menu
  // inside the viewport when the anchor sits near the right or bottom edge.
  function clampDropdown() {
    var dd = canvas.querySelector(".pf-dropdown");
    if (!dd) return;
    var margin = 8;
    var maxLeft = window.innerWidth - dd.offsetWidth - margin;
    if (parseFloat(dd.style.left) > maxLeft) {
      dd.style.left = Math.max(margin, maxLeft) + "px";
    }
    var maxTop = window.innerHeight - dd.offsetHeight - margin;
    if (parseFloat(dd.style.top) > maxTop) {
      dd.style.top = Math.max(margin, maxTop) + "px";
    }
  }

  function escapeHTML(s) {
    var div = document.createElement("div");
    div.textContent = s;
    return div.innerHTML;
  }

  function connect() {
    ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    ws.onopen = function () {
      setStatus(true);
      send({ type: "select", name: name });
    };
    ws.onclose = function () {
      setStatus(false);
      setTimeout(connect, 1000);
    };
    ws.onmessage = function (raw) {
      var msg = JSON.parse(raw.data);
      switch (msg.type) {
        case "render":
          canvas.innerHTML = msg.html;
          clampDropdown();
          break;
        case "navigate":
          screens.push(msg.target);
          renderScreenbar();
          break;
        case "haptic":
          if (navigator.vibrate) navigator.vibrate(msg.pattern);
          break;
        case "reload":
          if (!msg.target || msg.target === name) {
            send({ type: "select", name: name });
          }
          break;
        case "error":
          canvas.innerHTML = "<p>" + escapeHTML(msg.detail) + "</p>";
          break;
      }
    };
  }

  canvas.addEventListener("click", function (e) {
    var dismiss = e.target.closest("[data-overlay-dismiss]");
    if (dismiss && dismiss === e.target) {
      send({ type: "dismiss", overlay: dismiss.dataset.overlayDismiss });
      return;
    }

    var item = e.target.closest("[data-dropdown-item]");
    if (item) {
      send({ type: "dropdown", id: item.dataset.dropdownItem });
      return;
    }

    var gesture = e.target.closest("[data-gesture]");
    if (gesture) {
      var rect = gesture.getBoundingClientRect();
      var msg = {
        type: "event",
        event: gesture.dataset.gesture.toUpperCase(),
        x: rect.left,
        y: rect.bottom
      };
      if (gesture.dataset.itemIndex !== undefined) {
        msg.itemIndex = parseInt(gesture.dataset.itemIndex, 10);
      }
      send(msg);

      // Widget-level navigation is resolved locally, independent of any
      // machine transition the tap may also trigger.
      if (gesture.dataset.navigate) {
        screens.push(gesture.dataset.navigate);
        renderScreenbar();
      } else if (gesture.dataset.back !== undefined) {
        screens.pop();
        renderScreenbar();
      }
    }
  });

  connect();
})();
`

// previewShell is the page that hosts one component's live preview.
func previewShell(def *types.CustomComponentDefinition, theme string) string {
	bodyClass := ""
	if theme == "dark" {
		bodyClass = " class=\"pf-dark\""
	}
	name := html.EscapeString(def.Name)
	title := html.EscapeString(def.DisplayName)
	if title == "" {
		title = name
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s - protofab</title>\n", title)
	fmt.Fprintf(&b, "<style>%s</style>\n", shellCSS)
	b.WriteString("</head>\n")
	fmt.Fprintf(&b, "<body%s data-definition=\"%s\">\n", bodyClass, name)
	b.WriteString("<div class=\"pf-topbar\"><a href=\"/\">&larr; components</a>")
	fmt.Fprintf(&b, "<h1>%s</h1>", title)
	b.WriteString("<span class=\"pf-status\" id=\"pf-status\">connecting</span></div>\n")
	b.WriteString("<div class=\"pf-screenbar\" id=\"pf-screenbar\"></div>\n")
	b.WriteString("<div class=\"pf-canvas\" id=\"pf-canvas\"></div>\n")
	fmt.Fprintf(&b, "<script>%s</script>\n", shellJS)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// indexPage lists every loaded definition with a link to its preview.
func indexPage(summaries []definitionSummary, theme string) string {
	bodyClass := ""
	if theme == "dark" {
		bodyClass = " class=\"pf-dark\""
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	b.WriteString("<title>protofab</title>\n")
	fmt.Fprintf(&b, "<style>%s</style>\n", shellCSS)
	b.WriteString("</head>\n")
	fmt.Fprintf(&b, "<body%s>\n<div class=\"pf-index\">\n<h1>Components</h1>\n", bodyClass)

	if len(summaries) == 0 {
		b.WriteString("<p>No definitions loaded. Add .json definition files to a configured components path.</p>\n")
	} else {
		b.WriteString("<div class=\"pf-index-grid\">\n")
		for _, s := range summaries {
			display := s.DisplayName
			if display == "" {
				display = s.Name
			}
			meta := fmt.Sprintf("%d setting(s)", s.Settings)
			if s.HasBehavior {
				meta += " &middot; stateful"
			}
			fmt.Fprintf(&b, "<a class=\"pf-index-card\" href=\"/preview/%s\"><span class=\"pf-name\">%s</span><div class=\"pf-meta\">%s</div></a>\n",
				html.EscapeString(s.Name), html.EscapeString(display), meta)
		}
		b.WriteString("</div>\n")
	}

	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}
