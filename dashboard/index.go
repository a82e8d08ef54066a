package dashboard

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>binfolio — balance history</title>
<style>
  body { font-family: -apple-system, system-ui, sans-serif; background: #11131a; color: #e6e6e6; margin: 2rem; }
  h1 { font-size: 1.2rem; font-weight: 600; }
  #status { color: #8a8f98; font-size: 0.85rem; margin-bottom: 1rem; }
  #latest { font-size: 2rem; font-weight: 700; margin: 0.5rem 0 1.5rem; }
  canvas { width: 100%; height: 360px; background: #181b24; border-radius: 8px; }
</style>
</head>
<body>
<h1>Balance history (USD)</h1>
<div id="status">connecting…</div>
<div id="latest">—</div>
<canvas id="chart" width="1200" height="360"></canvas>
<script>
const statusEl = document.getElementById('status');
const latestEl = document.getElementById('latest');
const canvas = document.getElementById('chart');
const ctx = canvas.getContext('2d');
const points = [];

function draw() {
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  if (points.length < 2) return;
  const totals = points.map(p => p.total);
  const min = Math.min(...totals), max = Math.max(...totals);
  const span = (max - min) || 1;
  const stepX = canvas.width / (points.length - 1);
  ctx.beginPath();
  ctx.strokeStyle = '#73F59F';
  ctx.lineWidth = 2;
  points.forEach((p, i) => {
    const x = i * stepX;
    const y = canvas.height - 20 - ((p.total - min) / span) * (canvas.height - 40);
    if (i === 0) ctx.moveTo(x, y); else ctx.lineTo(x, y);
  });
  ctx.stroke();
}

const source = new EventSource('/history/stream');
source.addEventListener('balance', e => {
  const point = JSON.parse(e.data);
  points.push({ ts: point.ts, total: parseFloat(point.total_usd) });
  latestEl.textContent = points[points.length - 1].total.toFixed(2) + ' USD';
  statusEl.textContent = 'live — ' + points.length + ' points, last at ' + new Date(point.ts).toLocaleString();
  draw();
});
source.addEventListener('no_data', () => { statusEl.textContent = 'no history recorded yet'; });
source.onerror = () => { statusEl.textContent = 'disconnected, retrying…'; };
</script>
</body>
</html>
`
