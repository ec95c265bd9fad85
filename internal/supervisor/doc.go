// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

/*
Package supervisor provides process supervision for ShopSense using suture v4.

The supervisor tree organizes the long-running services into two layers for
failure isolation:

	RootSupervisor ("shopsense")
	├── WorkerSupervisor ("worker-layer")
	│   └── TrainerService (embedding backfill)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted automatically with exponential backoff, and a
crash in the trainer never takes down the HTTP API. Supervisor events are
logged through sutureslog, which bridges to the application's zerolog setup
via a slog adapter.
*/
package supervisor
