package report

// htmlTemplate is the main HTML template for the report
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Generator}} - PDF Rendering Benchmark</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f8fafc;
            --bg-card: #ffffff;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --text-muted: #94a3b8;
            --border-color: #e2e8f0;
            --accent-primary: #3b82f6;
            --accent-success: #22c55e;
            --accent-error: #ef4444;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
        }

        [data-theme="dark"] {
            --bg-primary: #0f172a;
            --bg-secondary: #1e293b;
            --bg-card: #1e293b;
            --text-primary: #f1f5f9;
            --text-secondary: #94a3b8;
            --text-muted: #64748b;
            --border-color: #334155;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.3);
        }

        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--bg-secondary);
            color: var(--text-primary);
            line-height: 1.6;
        }

        .container { max-width: 1400px; margin: 0 auto; padding: 2rem; }

        .header, .section, .metric-card {
            background: var(--bg-card);
            border-radius: 12px;
            box-shadow: var(--shadow);
        }

        .header {
            padding: 2rem;
            margin-bottom: 2rem;
            display: flex;
            justify-content: space-between;
            align-items: center;
            flex-wrap: wrap;
            gap: 1rem;
        }

        .header h1 { font-size: 1.75rem; font-weight: 700; }
        .header .meta { display: flex; gap: 2rem; font-size: 0.875rem; color: var(--text-muted); }

        .status { padding: 0.75rem 1.5rem; border-radius: 8px; font-weight: 600; }
        .status.pass { color: var(--accent-success); border: 1px solid rgba(34, 197, 94, 0.2); }
        .status.fail { color: var(--accent-error); border: 1px solid rgba(239, 68, 68, 0.2); }

        .metrics-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 1rem;
            margin-bottom: 2rem;
        }

        .metric-card { padding: 1.5rem; }
        .metric-card .label { font-size: 0.875rem; color: var(--text-secondary); }
        .metric-card .value { font-size: 1.75rem; font-weight: 700; }
        .metric-card .unit { font-size: 0.875rem; color: var(--text-muted); margin-left: 0.25rem; }

        .section { padding: 1.5rem; margin-bottom: 2rem; }
        .section-title { font-size: 1.25rem; font-weight: 600; margin-bottom: 1rem; }

        table { width: 100%; border-collapse: collapse; font-size: 0.875rem; }
        th, td { text-align: left; padding: 0.5rem 0.75rem; border-bottom: 1px solid var(--border-color); }
        th { color: var(--text-secondary); font-weight: 600; }
        tr.failed td { color: var(--accent-error); }

        .error-box { color: var(--accent-error); font-family: monospace; white-space: pre-wrap; }
        .footer { text-align: center; color: var(--text-muted); font-size: 0.875rem; padding: 1rem; }
    </style>
</head>
<body>
    <div class="container">
        <header class="header">
            <div>
                <h1>{{.Generator}}</h1>
                <div class="meta">
                    <span>Run {{.RunID}}</span>
                    <span>{{.StartTime.Format "2006-01-02 15:04:05"}}</span>
                    <span>{{formatDuration .Duration}}</span>
                </div>
            </div>
            <div class="status {{if .Passed}}pass{{else}}fail{{end}}">
                {{if .Passed}}✓ PASSED{{else}}✗ FAILED{{end}}
            </div>
        </header>

        {{with .Metrics}}
        <div class="metrics-grid">
            <div class="metric-card">
                <div class="label">Runs</div>
                <div class="value">{{formatNumber .TotalRuns}}</div>
            </div>
            <div class="metric-card">
                <div class="label">Pages Rendered</div>
                <div class="value">{{formatNumber .TotalPages}}</div>
            </div>
            <div class="metric-card">
                <div class="label">Throughput</div>
                <div class="value">{{printf "%.1f" .PagesPerSecond}}<span class="unit">pages/s</span></div>
            </div>
            <div class="metric-card">
                <div class="label">Mean Render Time</div>
                <div class="value">{{formatLatency .Render.Mean}}</div>
            </div>
            <div class="metric-card">
                <div class="label">Success Rate</div>
                <div class="value">{{printf "%.2f" (successRate .)}}<span class="unit">%</span></div>
            </div>
            <div class="metric-card">
                <div class="label">Images Written</div>
                <div class="value">{{formatBytes .BytesWritten}}</div>
            </div>
        </div>

        <section class="section">
            <h2 class="section-title">Render Time Distribution</h2>
            <table>
                <tr><th>Min</th><th>P50</th><th>P90</th><th>P95</th><th>P99</th><th>Max</th><th>Mean</th><th>Std Dev</th></tr>
                <tr>
                    <td>{{formatLatency .Render.Min}}</td>
                    <td>{{formatLatency .Render.P50}}</td>
                    <td>{{formatLatency .Render.P90}}</td>
                    <td>{{formatLatency .Render.P95}}</td>
                    <td>{{formatLatency .Render.P99}}</td>
                    <td>{{formatLatency .Render.Max}}</td>
                    <td>{{formatLatency .Render.Mean}}</td>
                    <td>{{formatLatency .Render.StdDev}}</td>
                </tr>
            </table>
        </section>
        {{end}}

        {{if .Runs}}
        <section class="section">
            <h2 class="section-title">Render Time per Run</h2>
            <canvas id="runsChart" height="90"></canvas>
        </section>

        <section class="section">
            <h2 class="section-title">Runs</h2>
            <table>
                <tr><th>Source</th><th>DPI</th><th>Quality</th><th>Format</th><th>Iteration</th><th>Pages</th><th>Elapsed</th><th>Written</th></tr>
                {{range .Runs}}
                <tr{{if .Error}} class="failed"{{end}}>
                    <td>{{.Source}}</td>
                    <td>{{.DPI}}</td>
                    <td>{{.Quality}}</td>
                    <td>{{.Format}}</td>
                    <td>{{.Iteration}}</td>
                    <td>{{.Pages}}</td>
                    <td>{{formatLatency .Elapsed}}</td>
                    <td>{{if .Error}}{{.Error}}{{else}}{{formatBytes .BytesWritten}}{{end}}</td>
                </tr>
                {{end}}
            </table>
        </section>
        {{end}}

        {{if .Sources}}
        <section class="section">
            <h2 class="section-title">Per-Document Statistics</h2>
            <table>
                <tr><th>Document</th><th>Runs</th><th>Min</th><th>Mean</th><th>P95</th><th>Max</th></tr>
                {{range $name, $stats := .Sources}}
                <tr>
                    <td>{{$name}}</td>
                    <td>{{formatNumber $stats.Count}}</td>
                    <td>{{formatLatency $stats.Min}}</td>
                    <td>{{formatLatency $stats.Mean}}</td>
                    <td>{{formatLatency $stats.P95}}</td>
                    <td>{{formatLatency $stats.Max}}</td>
                </tr>
                {{end}}
            </table>
        </section>
        {{end}}

        {{if .Thresholds}}
        <section class="section">
            <h2 class="section-title">Threshold Results</h2>
            <table>
                <tr><th></th><th>Metric</th><th>Expression</th><th>Actual</th></tr>
                {{range .Thresholds}}
                <tr{{if not .Passed}} class="failed"{{end}}>
                    <td>{{if .Passed}}✓{{else}}✗{{end}}</td>
                    <td>{{.Metric}}</td>
                    <td>{{.Expression}}</td>
                    <td>{{.Value}}{{if .Message}} ({{.Message}}){{end}}</td>
                </tr>
                {{end}}
            </table>
        </section>
        {{end}}

        {{if .ErrorText}}
        <section class="section">
            <h2 class="section-title">Sweep Error</h2>
            <div class="error-box">{{.ErrorText}}</div>
        </section>
        {{end}}

        <footer class="footer">
            <p>Generated by pdfbench • {{.EndTime.Format "2006-01-02 15:04:05 MST"}}</p>
        </footer>
    </div>

    <script>
        const runsData = {{.RunsJSON}};

        if (runsData.length > 0) {
            new Chart(document.getElementById('runsChart'), {
                type: 'bar',
                data: {
                    labels: runsData.map(r => r.label),
                    datasets: [{
                        label: 'Render time (s)',
                        data: runsData.map(r => r.seconds),
                        backgroundColor: runsData.map(r => r.failed ? '#ef4444' : '#3b82f6'),
                    }]
                },
                options: {
                    plugins: { legend: { display: false } },
                    scales: { y: { beginAtZero: true, title: { display: true, text: 'seconds' } } }
                }
            });
        }
    </script>
</body>
</html>
`
