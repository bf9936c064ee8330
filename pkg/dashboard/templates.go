package dashboard

// HTML templates for the dashboard pages.
// These are embedded as strings and parsed at runtime.

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Glulx VM Dashboard</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <link rel="stylesheet" href="/static/style.css">
</head>
<body class="bg-gray-900 text-gray-100 min-h-screen">
    <!-- Navigation -->
    <nav class="bg-gray-800 border-b border-gray-700 sticky top-0 z-50">
        <div class="container mx-auto px-4">
            <div class="flex items-center justify-between h-16">
                <div class="flex items-center space-x-8">
                    <a href="/" class="flex items-center space-x-2">
                        <svg class="w-8 h-8 text-blue-500" fill="currentColor" viewBox="0 0 24 24">
                            <path d="M4 4h16v4H4V4zm0 6h16v4H4v-4zm0 6h16v4H4v-4z"/>
                        </svg>
                        <span class="text-xl font-bold text-white">Glulx Dashboard</span>
                    </a>
                    <div class="hidden md:flex items-center space-x-4">
                        <a href="/" class="px-3 py-2 rounded-md text-sm font-medium {{if eq .PageName "home"}}bg-gray-900 text-white{{else}}text-gray-300 hover:bg-gray-700 hover:text-white{{end}}">Overview</a>
                        <a href="/settings" class="px-3 py-2 rounded-md text-sm font-medium {{if eq .PageName "settings"}}bg-gray-900 text-white{{else}}text-gray-300 hover:bg-gray-700 hover:text-white{{end}}">Settings</a>
                    </div>
                </div>
                <div class="flex items-center space-x-4">
                    <div id="connection-status" class="flex items-center space-x-2">
                        <span class="w-2 h-2 rounded-full bg-green-500"></span>
                        <span class="text-sm text-gray-300">Connected</span>
                    </div>
                </div>
            </div>
        </div>
    </nav>

    <!-- Main Content -->
    <main class="container mx-auto px-4 py-6">
        {{.Content}}
    </main>

    <!-- Footer -->
    <footer class="bg-gray-800 border-t border-gray-700 mt-8 py-4">
        <div class="container mx-auto px-4 text-center text-gray-400 text-sm">
            Glulx Interpreter | <span id="current-time"></span>
        </div>
    </footer>

    <script src="/static/app.js"></script>
</body>
</html>`

const homeTemplate = `
<div class="space-y-6">
    <!-- Status Cards -->
    <div class="grid grid-cols-1 md:grid-cols-2 lg:grid-cols-4 gap-4">
        <div class="bg-gray-800 rounded-lg p-6 border border-gray-700">
            <div class="flex items-center justify-between">
                <div>
                    <p class="text-gray-400 text-sm font-medium">Status</p>
                    <p class="text-3xl font-bold mt-1 {{if .Running}}text-green-500{{else}}text-gray-500{{end}}" id="run-status">{{if .Running}}Running{{else}}Halted{{end}}</p>
                </div>
                <div class="p-3 bg-blue-500/10 rounded-full">
                    <svg class="w-6 h-6 text-blue-500" fill="none" stroke="currentColor" viewBox="0 0 24 24">
                        <path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M13 10V3L4 14h7v7l9-11h-7z"/>
                    </svg>
                </div>
            </div>
        </div>

        <div class="bg-gray-800 rounded-lg p-6 border border-gray-700">
            <div class="flex items-center justify-between">
                <div>
                    <p class="text-gray-400 text-sm font-medium">Call Depth</p>
                    <p class="text-3xl font-bold text-white mt-1" id="call-depth">{{formatNumber .Stat.CallDepth}}</p>
                    <p class="text-sm text-gray-500 mt-1" id="stack-depth">{{formatNumber .Stat.StackDepth}} / {{formatNumber .Stat.StackCapacity}} words</p>
                </div>
                <div class="p-3 bg-purple-500/10 rounded-full">
                    <svg class="w-6 h-6 text-purple-500" fill="none" stroke="currentColor" viewBox="0 0 24 24">
                        <path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M19 11H5m14 0a2 2 0 012 2v6a2 2 0 01-2 2H5a2 2 0 01-2-2v-6a2 2 0 012-2m14 0V9a2 2 0 00-2-2M5 11V9a2 2 0 012-2m0 0V5a2 2 0 012-2h6a2 2 0 012 2v2M7 7h10"/>
                    </svg>
                </div>
            </div>
        </div>

        <div class="bg-gray-800 rounded-lg p-6 border border-gray-700">
            <div class="flex items-center justify-between">
                <div>
                    <p class="text-gray-400 text-sm font-medium">Heap Extent</p>
                    <p class="text-3xl font-bold text-white mt-1" id="heap-extent">{{formatNumber .Stat.HeapExtent}}</p>
                    <p class="text-sm text-gray-500 mt-1">Undo points: <span id="undo-count">{{formatNumber .Stat.UndoCount}}</span></p>
                </div>
                <div class="p-3 bg-yellow-500/10 rounded-full">
                    <svg class="w-6 h-6 text-yellow-500" fill="none" stroke="currentColor" viewBox="0 0 24 24">
                        <path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M20 7l-8-4-8 4m16 0l-8 4m8-4v10l-8 4m0-10L4 7m8 4v10M4 7v10l8 4"/>
                    </svg>
                </div>
            </div>
        </div>

        <div class="bg-gray-800 rounded-lg p-6 border border-gray-700">
            <div class="flex items-center justify-between">
                <div>
                    <p class="text-gray-400 text-sm font-medium">Uptime</p>
                    <p class="text-3xl font-bold text-white mt-1" id="uptime">{{formatDuration .Uptime}}</p>
                    <p class="text-sm text-gray-500 mt-1" id="instructions">{{formatNumber .Stat.Instructions}} instructions</p>
                </div>
                <div class="p-3 bg-green-500/10 rounded-full">
                    <svg class="w-6 h-6 text-green-500" fill="none" stroke="currentColor" viewBox="0 0 24 24">
                        <path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M12 8v4l3 3m6-3a9 9 0 11-18 0 9 9 0 0118 0z"/>
                    </svg>
                </div>
            </div>
        </div>
    </div>

    <!-- Registers -->
    <div class="bg-gray-800 rounded-lg p-6 border border-gray-700">
        <h2 class="text-lg font-semibold text-white mb-4">Registers</h2>
        <div class="grid grid-cols-3 gap-4 mono text-sm">
            <div><span class="text-gray-400">pc</span> <span id="pc-value">{{hexAddr .Stat.PC}}</span></div>
            <div><span class="text-gray-400">sp</span> <span id="sp-value">{{hexAddr .Stat.SP}}</span></div>
            <div><span class="text-gray-400">fp</span> <span id="fp-value">{{hexAddr .Stat.FP}}</span></div>
        </div>
    </div>

    <!-- Output Channels -->
    <div class="bg-gray-800 rounded-lg p-6 border border-gray-700">
        <h2 class="text-lg font-semibold text-white mb-4">Output Channels</h2>
        <div id="channels-container">
            {{if .Channels}}
                {{range $name, $text := .Channels}}
                <div class="mb-4">
                    <h3 class="text-sm font-semibold text-gray-400 mb-1">{{$name}}</h3>
                    <div class="data-preview mono text-sm bg-gray-900 rounded p-3">{{$text}}</div>
                </div>
                {{end}}
            {{else}}
                <p class="text-gray-500">No output yet.</p>
            {{end}}
        </div>
    </div>
</div>
`

const settingsTemplate = `
<div class="space-y-6">
    <div class="bg-gray-800 rounded-lg p-6 border border-gray-700">
        <h2 class="text-lg font-semibold text-white mb-4">Image</h2>
        <dl class="grid grid-cols-1 md:grid-cols-2 gap-4 text-sm">
            <div>
                <dt class="text-gray-400">Loaded game</dt>
                <dd class="mono text-white">{{.ImageName}}</dd>
            </div>
            <div>
                <dt class="text-gray-400">Dashboard address</dt>
                <dd class="mono text-white">{{.DashboardAddress}}</dd>
            </div>
        </dl>
    </div>

    <div class="bg-gray-800 rounded-lg p-6 border border-gray-700">
        <h2 class="text-lg font-semibold text-white mb-4">Save Slots</h2>
        {{if .SaveSlots}}
        <ul class="space-y-1 mono text-sm">
            {{range .SaveSlots}}
            <li class="text-gray-300">{{.}}</li>
            {{end}}
        </ul>
        {{else}}
        <p class="text-gray-500">No saves for this image yet.</p>
        {{end}}
    </div>
</div>
`
