// Package logger provides structured logging for httpfactory built on
// zerolog. It supports json and console output, leveled logging, and
// component-tagged child loggers.
//
// Most packages in this module take a *logger.Logger explicitly; the global
// logger exists for code paths where threading one through is impractical.
package logger
