/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for the loghound anomaly report. Keeps the
card/tab layout of the dashboard this was adapted from, rebound to
byte-pattern and structured anomaly statistics instead of fuzzing metrics.
*/

package reporting

// reportTemplate is the HTML template for the --html-report output.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - loghound report</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            color: #333;
        }

        .container {
            max-width: 1400px;
            margin: 0 auto;
            padding: 20px;
        }

        .header {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 20px;
            padding: 30px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
            text-align: center;
        }

        .header h1 {
            color: #4a5568;
            font-size: 2.5rem;
            margin-bottom: 10px;
            font-weight: 700;
        }

        .header p {
            color: #718096;
            font-size: 1.1rem;
        }

        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }

        .stat-card {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 25px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        .stat-card h3 {
            color: #4a5568;
            font-size: 1.1rem;
            margin-bottom: 15px;
        }

        .stat-card .value {
            font-size: 2.2rem;
            font-weight: 700;
            color: #2d3748;
            margin-bottom: 5px;
        }

        .stat-card .label {
            color: #718096;
            font-size: 0.85rem;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }

        .record-list {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 25px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
            margin-bottom: 30px;
        }

        .record-item {
            background: #f7fafc;
            border-radius: 10px;
            padding: 16px 20px;
            margin-bottom: 12px;
            border-left: 4px solid #e53e3e;
        }

        .record-header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 6px;
        }

        .record-title {
            font-weight: 600;
            color: #2d3748;
        }

        .record-score {
            padding: 4px 12px;
            border-radius: 20px;
            font-size: 0.8rem;
            font-weight: 600;
            background: #fed7d7;
            color: #c53030;
        }

        .record-details {
            color: #718096;
            font-size: 0.9rem;
        }

        .footer {
            text-align: center;
            padding: 30px;
            color: rgba(255, 255, 255, 0.8);
            font-size: 0.9rem;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <p>Generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM"}} | Input: {{.InputPath}} | loghound {{.Version}}</p>
            <p>Run ID: {{.RunID}}</p>
        </div>

        <div class="stats-grid">
            <div class="stat-card">
                <h3>Records</h3>
                <div class="value">{{.RecordCount}}</div>
                <div class="label">Total Records Scored</div>
            </div>
            <div class="stat-card">
                <h3>Flagged</h3>
                <div class="value">{{.Detection.Flagged}}</div>
                <div class="label">{{.Detection.Method}} method</div>
            </div>
            <div class="stat-card">
                <h3>Mean Score</h3>
                <div class="value">{{printf "%.3f" .Detection.Mean}}</div>
                <div class="label">Across All Records</div>
            </div>
            <div class="stat-card">
                <h3>Std Dev</h3>
                <div class="value">{{printf "%.3f" .Detection.StdDev}}</div>
                <div class="label">Sample Standard Deviation</div>
            </div>
            <div class="stat-card">
                <h3>Threshold</h3>
                <div class="value">{{printf "%.3f" .Detection.Threshold}}</div>
                <div class="label">Detection Cutoff</div>
            </div>
            <div class="stat-card">
                <h3>Dictionary</h3>
                <div class="value">{{.DictionarySize}}</div>
                <div class="label">Distinct Back-Reference Entries</div>
            </div>
        </div>

        <div class="record-list">
            <h3>Flagged Records</h3>
            {{range .FlaggedRecords}}
            <div class="record-item">
                <div class="record-header">
                    <div class="record-title">Record {{.Index}}</div>
                    <div class="record-score">score {{printf "%.3f" .Score}}</div>
                </div>
                <div class="record-details">{{.Reason}}</div>
            </div>
            {{end}}
        </div>
    </div>

    <div class="footer">
        <p>loghound anomaly report</p>
    </div>
</body>
</html>
`
