package client

import "github.com/m04kA/SMC-VenueCRM/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
