package handlers

// authPageHTML is the secondary credential-collection surface. It posts the
// structured handshake message back to the callback endpoint on the same
// origin it was served from.
const authPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>trackpull authorization</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 640px; margin: 3rem auto; padding: 0 1rem; }
  textarea { width: 100%; height: 6rem; font-family: monospace; }
  button { margin-top: 0.75rem; padding: 0.5rem 1.5rem; }
  #status { margin-top: 1rem; color: #555; }
</style>
</head>
<body>
<h2>Paste your cookies</h2>
<p>Sign in to the media service in another tab, copy the cookie header value,
and paste it below. Full-quality downloads require authorization.</p>
<textarea id="cookies" placeholder="Session_id=...; yandexuid=..."></textarea>
<br>
<button id="send">Submit</button>
<button id="fail">Cancel</button>
<div id="status"></div>
<script>
async function post(body) {
  const resp = await fetch('/api/v1/auth/callback', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify(body)
  });
  const data = await resp.json();
  document.getElementById('status').textContent =
    resp.ok ? 'Sent. You can return to the terminal.' : (data.error || 'Failed');
}
document.getElementById('send').addEventListener('click', () => {
  const cookies = document.getElementById('cookies').value.trim();
  if (!cookies) {
    post({ type: 'AUTH_FAILED', message: 'No cookies supplied' });
    return;
  }
  post({ type: 'AUTH_SUCCESS', cookies: cookies });
});
document.getElementById('fail').addEventListener('click', () => {
  post({ type: 'AUTH_FAILED', message: 'Cancelled by user' });
});
</script>
</body>
</html>
`
