package controllers

const loginHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Feedboard · Login</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    background: #17121f; color: #e4e4e7; min-height: 100vh;
    display: flex; align-items: center; justify-content: center;
  }
  .card {
    background: #221a2e; border: 1px solid #7c3aed; border-radius: 12px;
    padding: 32px; width: 100%; max-width: 380px;
  }
  h1 { font-size: 20px; margin-bottom: 24px; text-align: center; color: #fff; }
  label { display: block; font-size: 12px; color: #a1a1aa; margin-bottom: 6px; }
  input {
    width: 100%; background: #17121f; border: 1px solid #3f3f46; border-radius: 8px;
    color: #e4e4e7; font-size: 14px; padding: 10px 14px; outline: none; margin-bottom: 16px;
  }
  input:focus { border-color: #7c3aed; }
  button {
    width: 100%; background: #7c3aed; color: #fff; border: none; border-radius: 8px;
    font-size: 14px; font-weight: 600; padding: 11px; cursor: pointer;
  }
  button:hover { background: #6d28d9; }
  .error {
    background: rgba(248,113,113,.1); border: 1px solid rgba(248,113,113,.3);
    border-radius: 8px; color: #f87171; font-size: 13px; padding: 10px 14px;
    margin-bottom: 16px; display: none;
  }
</style>
</head>
<body>
<div class="card">
  <h1>DayZ Bot Dashboard</h1>
  <div class="error" id="err"></div>
  <form id="login">
    <label for="key">Admin Key</label>
    <input id="key" type="password" placeholder="Enter admin key" required autofocus>
    <button type="submit">Login</button>
  </form>
</div>
<script>
document.getElementById('login').addEventListener('submit', async (e) => {
  e.preventDefault();
  const res = await fetch('/api/login', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({adminKey: document.getElementById('key').value})
  }).catch(() => null);
  if (res && res.ok) { location.reload(); return; }
  const err = document.getElementById('err');
  err.style.display = 'block';
  if (!res) { err.textContent = 'Cannot reach dashboard'; return; }
  const body = await res.json().catch(() => ({}));
  err.textContent = body.error || 'Login failed';
});
</script>
</body>
</html>`

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Feedboard</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    background: #17121f; color: #e4e4e7; min-height: 100vh; padding: 24px;
  }
  .wrap { max-width: 1100px; margin: 0 auto; }
  header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 28px; }
  h1 { font-size: 26px; color: #fff; }
  .logout { background: #dc2626; color: #fff; border: none; border-radius: 8px; padding: 8px 16px; cursor: pointer; }
  .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 16px; margin-bottom: 28px; }
  .stat { background: #221a2e; border: 1px solid #3f3f46; border-radius: 12px; padding: 18px; }
  .stat .label { font-size: 12px; color: #a1a1aa; margin-bottom: 6px; }
  .stat .value { font-size: 26px; font-weight: 700; color: #fff; }
  .panel { background: #221a2e; border: 1px solid #7c3aed; border-radius: 12px; padding: 24px; }
  .panel h2 { font-size: 17px; color: #fff; margin-bottom: 18px; }
  .feeds { display: grid; grid-template-columns: repeat(auto-fit, minmax(320px, 1fr)); gap: 18px; }
  .feed { border: 1px solid #3f3f46; border-radius: 10px; padding: 14px; }
  .feed .row { display: flex; justify-content: space-between; align-items: center; margin-bottom: 8px; }
  .feed label { font-size: 13px; color: #e4e4e7; font-weight: 600; }
  .feed select {
    width: 100%; background: #17121f; border: 1px solid #3f3f46; border-radius: 8px;
    color: #e4e4e7; font-size: 13px; padding: 8px 10px;
  }
  .feed select:disabled { opacity: .5; }
  footer { margin-top: 24px; text-align: center; color: #71717a; font-size: 12px; }
  #banner {
    display: none; margin-bottom: 16px; padding: 10px 14px; border-radius: 8px; font-size: 13px;
    background: rgba(248,113,113,.1); border: 1px solid rgba(248,113,113,.3); color: #f87171;
  }
</style>
</head>
<body>
<div class="wrap">
  <header>
    <h1>DayZ Bot Dashboard</h1>
    <button class="logout" onclick="logout()">Logout</button>
  </header>
  <div id="banner"></div>
  <div class="stats">
    <div class="stat"><div class="label">Events Processed</div><div class="value" id="st-events">—</div></div>
    <div class="stat"><div class="label">Online Players</div><div class="value" id="st-online">—</div></div>
    <div class="stat"><div class="label">Peak Today</div><div class="value" id="st-peak">—</div></div>
    <div class="stat"><div class="label">Devices Tracked</div><div class="value" id="st-devices">—</div></div>
  </div>
  <div class="panel">
    <h2>Feed Configuration</h2>
    <div class="feeds" id="feeds"></div>
  </div>
  <footer id="footer"></footer>
</div>
<script>
const FEEDS = [
  {key: 'kill', label: 'Kill Feed'},
  {key: 'death', label: 'Death Feed'},
  {key: 'leaderboard', label: 'Leader Board'},
  {key: 'online', label: 'Online Players'},
  {key: 'adminTracking', label: 'Admin Tracking', toggle: true},
  {key: 'altDetection', label: 'Alt Detection'},
  {key: 'placed', label: 'Placed Items', toggle: true},
  {key: 'built', label: 'Built Items', toggle: true},
  {key: 'dismantled', label: 'Dismantled Items', toggle: true},
];
let channels = [];
let state = {};

function banner(msg) {
  const el = document.getElementById('banner');
  el.style.display = msg ? 'block' : 'none';
  el.textContent = msg || '';
}

async function logout() {
  await fetch('/api/logout', {method: 'POST'});
  location.reload();
}

async function patch(body) {
  const res = await fetch('/api/config', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body)
  }).catch(() => null);
  if (!res) { banner('Cannot reach dashboard'); return; }
  if (res.status === 401) { location.reload(); return; }
  if (!res.ok) {
    const b = await res.json().catch(() => ({}));
    banner(b.error || 'Save failed — your edits are kept, retry when ready');
    return;
  }
  banner('');
}

function setChannel(key, id) { patch({channelIds: {[key]: id}}); }
function setFeed(key, on) { patch({feeds: {[key]: on}}); }

function render() {
  const cfg = state.config || {};
  const ids = cfg.channelIds || {};
  const feeds = cfg.feeds || {};
  const host = document.getElementById('feeds');
  host.innerHTML = '';
  for (const f of FEEDS) {
    const enabled = !f.toggle || !!feeds[f.key];
    const opts = ['<option value="">Select Channel</option>']
      .concat(channels.map(c =>
        '<option value="' + c.id + '"' + (ids[f.key] === c.id ? ' selected' : '') + '>#' + c.name + '</option>'))
      .join('');
    const toggle = f.toggle
      ? '<input type="checkbox"' + (feeds[f.key] ? ' checked' : '') +
        ' onchange="setFeed(\'' + f.key + '\', this.checked)">'
      : '';
    const div = document.createElement('div');
    div.className = 'feed';
    div.innerHTML =
      '<div class="row"><label>' + f.label + '</label>' + toggle + '</div>' +
      '<select' + (enabled ? '' : ' disabled') +
      ' onchange="setChannel(\'' + f.key + '\', this.value)">' + opts + '</select>';
    host.appendChild(div);
  }
  const s = state.stats || {};
  document.getElementById('st-events').textContent = (s.eventsProcessed || 0).toLocaleString();
  document.getElementById('st-online').textContent = (s.onlinePlayers || {}).currentOnline || 0;
  document.getElementById('st-peak').textContent = (s.onlinePlayers || {}).peakOnline || 0;
  document.getElementById('st-devices').textContent = (s.altDetection || {}).totalDevices || 0;
  document.getElementById('footer').textContent =
    'Bot Version: ' + (s.version || 'Unknown') + ' · Uptime: ' + fmtUptime(s.uptime || 0) +
    (state.dirty ? ' · unsaved edits' : '');
}

function fmtUptime(sec) {
  const h = Math.floor(sec / 3600), m = Math.floor((sec % 3600) / 60), s = Math.floor(sec % 60);
  return h + 'h ' + m + 'm ' + s + 's';
}

async function boot() {
  const [stateRes, chRes] = await Promise.all([
    fetch('/api/state'), fetch('/api/channels')
  ]);
  if (stateRes.status === 401 || chRes.status === 401) { location.reload(); return; }
  state = await stateRes.json();
  channels = (await chRes.json()).channels || [];
  render();

  const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
  ws.onmessage = (ev) => {
    state = JSON.parse(ev.data);
    if (state.session !== 'authenticated') { location.reload(); return; }
    render();
  };
  ws.onclose = () => setTimeout(boot, 3000);
}
boot();
</script>
</body>
</html>`
