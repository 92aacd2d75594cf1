package templates

// HeaderData drives the top navigation.
type HeaderData struct {
	ProjectID  string
	ActivePath string
	LoggedIn   bool
}

type navLink struct {
	Label string
	Path  string
}

func (d HeaderData) links() []navLink {
	if d.ProjectID == "" {
		return nil
	}
	base := "/projects/" + d.ProjectID
	return []navLink{
		{"Bill of Materials", base + "/bom"},
		{"Labor", base + "/labor"},
		{"Quote", base + "/quote"},
	}
}

const pageStyle = `
body{font-family:system-ui,-apple-system,sans-serif;margin:0;color:#212529;background:#f6f7f9}
header{background:#212529;color:#fff;padding:.75rem 1.5rem;display:flex;gap:1.5rem;align-items:center}
header a{color:#adb5bd;text-decoration:none}header a.active{color:#fff;font-weight:600}
header .spacer{flex:1}
main{max-width:1200px;margin:1.5rem auto;padding:0 1rem}
section{background:#fff;border:1px solid #dee2e6;border-radius:6px;padding:1rem;margin-bottom:1rem}
table{width:100%;border-collapse:collapse;font-size:.9rem}
th,td{padding:.4rem .5rem;border-bottom:1px solid #e9ecef;text-align:left}
td.num,th.num{text-align:right}
.cards{display:flex;gap:1rem}.card{flex:1;background:#fff;border:1px solid #dee2e6;border-radius:6px;padding:.75rem}
.card .value{font-size:1.4rem;font-weight:600}
.muted{color:#6c757d}.badge{padding:.1rem .5rem;border-radius:4px;background:#e9ecef;font-size:.8rem}
form.inline{display:inline}
.grid{display:grid;grid-template-columns:repeat(4,1fr);gap:.5rem}
button.danger{color:#b02a37}
pre.quote{white-space:pre-wrap;background:#f8f9fa;padding:1rem;border-radius:4px}
#toast{position:fixed;right:1rem;bottom:1rem;padding:.75rem 1rem;border-radius:4px;display:none;color:#fff}
#toast.success{background:#198754}#toast.error{background:#b02a37}#toast.info{background:#0d6efd}
`

const toastScript = `
function showToast(d){var t=document.getElementById('toast');if(!t||!d)return;
t.textContent=d.message;t.className=d.type||'info';t.style.display='block';
clearTimeout(window.__toastTimer);window.__toastTimer=setTimeout(function(){t.style.display='none'},4000)}
document.body.addEventListener('showToast',function(e){showToast(e.detail)});
(function(){var m=document.cookie.match(/(?:^|; )flash_toast=([^;]*)/);if(!m)return;
document.cookie='flash_toast=; Max-Age=0; path=/';
try{showToast(JSON.parse(decodeURIComponent(m[1].replace(/\+/g,' '))))}catch(e){}})();
`
